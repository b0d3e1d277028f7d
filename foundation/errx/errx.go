package errx

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies fatal errors by the surface that produced them.
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
	KindConfig Kind = "config"
)

// Error is a fatal, run-aborting error. Per-row problems (a malformed email,
// a name flagged for review) are data, not errors, and never use this type.
type Error struct {
	Kind Kind
	Base error
	Msg  string
}

func (e Error) Error() string {
	switch {
	case e.Base == nil && e.Msg == "":
		return fmt.Sprintf("%s error", e.Kind)
	case e.Base == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Base)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Base)
	}
}

// Unwrap supports errors.Is / errors.As against Base.
func (e Error) Unwrap() error { return e.Base }

func Input(base error, msg string) error  { return wrap(KindInput, base, msg) }
func Output(base error, msg string) error { return wrap(KindOutput, base, msg) }
func Config(base error, msg string) error { return wrap(KindConfig, base, msg) }

func wrap(kind Kind, base error, msg string) error {
	return Error{Kind: kind, Base: base, Msg: strings.TrimSpace(msg)}
}

func IsInput(err error) bool  { return is(err, KindInput) }
func IsOutput(err error) bool { return is(err, KindOutput) }
func IsConfig(err error) bool { return is(err, KindConfig) }

func is(err error, kind Kind) bool {
	var e Error
	return errors.As(err, &e) && e.Kind == kind
}
