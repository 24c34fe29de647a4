// Package views holds the screen controllers. A view owns its state, talks to
// the backend through api.Client and reports outcomes as notices; rendering
// is left to the front end driving it.
package views

import (
	"context"
	"errors"

	"hotelres/internal/api"
	"hotelres/internal/auth"
	"hotelres/internal/utils"
)

// Home is where a login lands when nothing asked for a specific page.
const Home = "/home"

// Deps are shared by every view of one front end.
type Deps struct {
	API     *api.Client
	Session *auth.Session
	Notices *Notices
	Log     *utils.Logger
}

type base struct {
	Deps
	scope  *Scope
	submit Submit
}

func newBase(parent context.Context, d Deps) *base {
	if d.Notices == nil {
		d.Notices = NewNotices(nil)
	}
	if d.Log == nil {
		d.Log = utils.Discard()
	}
	return &base{Deps: d, scope: Open(parent)}
}

// Close unmounts the view; pending results are dropped.
func (b *base) Close() { b.scope.Close() }

func (b *base) ctx() context.Context { return b.scope.Context() }

// apply commits a fetched result unless the view is gone.
func (b *base) apply(fn func()) error {
	if !b.scope.Apply(fn) {
		return ErrClosed
	}
	return nil
}

// fail turns err into an error notice. Nothing is raised for a view that was
// closed while the call ran.
func (b *base) fail(op string, err error) error {
	if b.scope.Closed() || errors.Is(err, context.Canceled) {
		return err
	}
	if utils.IsValidation(err) {
		b.Log.Infof("%s: %v", op, err)
	} else {
		b.Log.Warnf("%s: %v", op, err)
	}
	b.Notices.Fail(err)
	return err
}

func (b *base) invalid(field, message string) error {
	return b.fail(field, utils.Invalid(field, message))
}

func (b *base) succeed(text string) {
	if !b.scope.Closed() {
		b.Notices.Success(text)
	}
}

// once runs a submission through the in-flight guard.
func (b *base) once(fn func() error) error {
	return b.submit.Run(fn)
}
