package service

import (
	"context"
	"strconv"
	"strings"
)

// GenerateLogin derives a login handle from a person's name: first rune of
// the first name plus the last name, lower-cased, restricted to [a-z0-9],
// with an integer suffix bumped until the store reports the handle free.
// The result is only a likely-free candidate; the store's unique constraint
// settles concurrent registrations.
func (s *AuthService) GenerateLogin(ctx context.Context, firstName, lastName string) (string, error) {
	base := loginBase(firstName, lastName)
	login := base
	for counter := 1; ; counter++ {
		taken, err := s.store.ExistsByLogin(ctx, login)
		if err != nil {
			return "", err
		}
		if !taken {
			return login, nil
		}
		login = base + strconv.Itoa(counter)
	}
}

func loginBase(firstName, lastName string) string {
	initial := ""
	if runes := []rune(firstName); len(runes) > 0 {
		initial = string(runes[0])
	}
	lowered := strings.ToLower(initial + lastName)

	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
