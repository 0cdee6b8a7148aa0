package types

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate validates the JobProfile using the validator.
func (p *JobProfile) Validate() error {
	return validatorInstance().Struct(p)
}

// Validate validates the Analysis using the validator.
func (a *Analysis) Validate() error {
	return validatorInstance().Struct(a)
}

// Validate validates the KeywordTag using the validator.
func (k *KeywordTag) Validate() error {
	return validatorInstance().Struct(k)
}

// Validate validates the NewsRecord using the validator.
func (r *NewsRecord) Validate() error {
	return validatorInstance().Struct(r)
}
