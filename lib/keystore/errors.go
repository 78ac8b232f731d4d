package keystore

import (
	"errors"

	"github.com/samber/oops"
)

var (
	ErrInvalidValue = errors.New("keystore: invalid value")
	ErrCorruptStore = errors.New("keystore: store file is corrupt")
)

func errInvalidValue(key string) error {
	return oops.Wrapf(ErrInvalidValue, "cannot store zero value under %q", key)
}
