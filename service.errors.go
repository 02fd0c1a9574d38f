package main

import (
	"errors"
	"fmt"
)

// translateError turns an adapter failure into the DomainError handed out
// to the api and the shell. Veto errors are consumed here and never leak.
func translateError(err error, notFound, duplicate, referenced string) error {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return NewDomainError(ErrNotFound, notFound)
	case errors.Is(err, ErrDuplicateKey):
		return WrapDomainError(ErrAlreadyExists, duplicate, err)
	case errors.Is(err, ErrReferenced):
		return WrapDomainError(ErrStillReferenced, referenced, err)
	}
	return WrapDomainError(ErrStoreFailure, fmt.Sprintf("store failure: %v", err), err)
}
