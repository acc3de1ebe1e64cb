package settings

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeKindUnknown   = "FIELD_KIND_UNKNOWN"
	codeNameRequired  = "FIELD_NAME_REQUIRED"
	codeDuplicate     = "FIELD_DUPLICATE"
	codePageDuplicate = "PAGE_DUPLICATE"
	codeSlugRequired  = "PAGE_SLUG_REQUIRED"
	codeStoreRead     = "STORE_READ_FAILED"
	codeStoreWrite    = "STORE_WRITE_FAILED"
)

var (
	ErrFieldNameRequired = errors.New("settings: field name is required")
	ErrDuplicateField    = errors.New("settings: field name already registered")
	ErrDuplicatePage     = errors.New("settings: page slug already registered")
	ErrPageSlugRequired  = errors.New("settings: page slug is required")
	ErrStoreRequired     = errors.New("settings: store is required")
	ErrPageNotFound      = errors.New("settings: page not registered")
)

func validationError(err error, message, code string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func storeError(err error, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}
