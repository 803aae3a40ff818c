package book_lesson

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

const maxNameLength = 100

// phonePattern допустимые символы номера: цифры, плюс, дефис, скобки, пробел
var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

// validName проверяет имя: непустое после обрезки пробелов и не длиннее
// maxNameLength символов
func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLength {
		return "", false
	}
	return name, true
}

// validPhone проверяет номер телефона: только допустимые символы и не менее
// domain.MinPhoneDigits цифр
func validPhone(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" || !phonePattern.MatchString(phone) {
		return "", false
	}

	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < domain.MinPhoneDigits {
		return "", false
	}

	return phone, true
}
