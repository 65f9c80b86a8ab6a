// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

type configValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var loadValidator = sync.OnceValues(func() (*configValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "registering validation translations: %w", err)
	}

	// Report fields by their config key rather than their Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &configValidator{validate: validate, trans: trans}, nil
})

// Validate checks the configuration for invalid values.
// It returns every failure found rather than stopping at the first one.
func (c *Config) Validate() []error {
	cv, err := loadValidator()
	if err != nil {
		return []error{err}
	}

	err = cv.validate.Struct(c)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{glossaryerr.Errorf(glossaryerr.CodeConfigValidateInvalidValue, "config: %w", err)}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		errs = append(errs, glossaryerr.New(glossaryerr.CodeConfigValidateInvalidValue,
			"config: "+key+": "+fe.Translate(cv.trans),
			glossaryerr.Field("key", key),
			glossaryerr.Field("value", fe.Value()),
		))
	}
	return errs
}
