// Package jsonstore — файловый бэкенд хранилища.
// Формат файлов совместим с исходной системой: slots.json (карта дата ->
// список ячеек), bookings.json (список записей), users.json (карта
// user_id -> профиль), homeworks.json (список заданий).
//
// Каждая операция читает файл целиком, меняет данные в памяти и пишет файл
// обратно под общим мьютексом. Транзакционной изоляции между сущностями нет:
// при конкурентных записях выигрывает последняя (принятое ограничение).
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	slotsFile     = "slots.json"
	bookingsFile  = "bookings.json"
	usersFile     = "users.json"
	homeworksFile = "homeworks.json"
)

// Store файловое хранилище. Репозитории сущностей делят общий мьютекс.
type Store struct {
	dir string
	mu  sync.Mutex

	Slots     *SlotRepo
	Bookings  *BookingRepo
	Users     *UserRepo
	Homeworks *HomeworkRepo
}

// New создает хранилище в каталоге dir, инициализируя отсутствующие файлы
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: failed to create dir %s: %w", dir, err)
	}

	s := &Store{dir: dir}
	s.Slots = &SlotRepo{store: s}
	s.Bookings = &BookingRepo{store: s}
	s.Users = &UserRepo{store: s}
	s.Homeworks = &HomeworkRepo{store: s}

	inits := []struct {
		name  string
		empty string
	}{
		{slotsFile, "{}"},
		{bookingsFile, "[]"},
		{usersFile, "{}"},
		{homeworksFile, "[]"},
	}
	for _, f := range inits {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(f.empty), 0o644); err != nil {
				return nil, fmt.Errorf("jsonstore: failed to init %s: %w", f.name, err)
			}
		}
	}

	return s, nil
}

// readFile читает и разбирает json-файл. Вызывается под мьютексом.
func (s *Store) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("jsonstore: failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("jsonstore: failed to parse %s: %w", name, err)
	}
	return nil
}

// writeFile сериализует и атомарно переписывает json-файл. Вызывается под мьютексом.
func (s *Store) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("jsonstore: failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("jsonstore: failed to replace %s: %w", name, err)
	}
	return nil
}
