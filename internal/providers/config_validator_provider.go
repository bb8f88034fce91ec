package providers

import (
	"errors"
	"topfived/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks every config section against its struct tags and returns
// all failures joined into one error.
func (cv *CnfValidator) Validate() error {
	sections := []interface{}{
		&cv.conf.WebServer,
		&cv.conf.Logger,
		&cv.conf.Database,
		&cv.conf.Identity,
	}

	var errs []error
	for _, section := range sections {
		v := validate.Struct(section)
		if !v.Validate() {
			errs = append(errs, v.Errors)
		}
	}
	if cv.conf.Voting.RemoteTimeout < 0 {
		errs = append(errs, errors.New("voting.remoteTimeout must not be negative"))
	}
	return errors.Join(errs...)
}
