package views

import (
	"context"

	"hotelres/internal/models"
)

const (
	MsgFillIn       = "Please fill in all fields."
	MsgFillAll      = "Please fill all the fields."
	MsgRegistered   = "User registered successfully"
	MsgVerified     = "Account verified successfully."
	MsgVerifyFailed = "Verification failed. Please try again or contact support."
)

type Login struct{ *base }

func NewLogin(ctx context.Context, d Deps) *Login { return &Login{newBase(ctx, d)} }

// Submit logs in and stores the session. It returns where to go next: from,
// when the guard sent the user here, or Home.
func (v *Login) Submit(creds models.Credentials, from string) (string, error) {
	var next string
	err := v.once(func() error {
		if err := models.Check(creds, MsgFillIn); err != nil {
			return v.fail("login", err)
		}
		res, err := v.API.Login(v.ctx(), creds)
		if err != nil {
			return v.fail("login", err)
		}
		if err := v.Session.Login(res.Token, res.Role); err != nil {
			return v.fail("login", err)
		}
		next = from
		if next == "" {
			next = Home
		}
		v.Log.Infof("logged in as %s", res.Role)
		return nil
	})
	return next, err
}

type Register struct{ *base }

func NewRegister(ctx context.Context, d Deps) *Register { return &Register{newBase(ctx, d)} }

// Submit registers an account; image may be nil.
func (v *Register) Submit(form models.RegisterForm, image *models.Upload) error {
	return v.once(func() error {
		if err := models.Check(form, MsgFillAll); err != nil {
			return v.fail("register", err)
		}
		if _, err := v.API.Register(v.ctx(), form, image); err != nil {
			return v.fail("register", err)
		}
		v.succeed(MsgRegistered)
		return nil
	})
}

type Verify struct{ *base }

func NewVerify(ctx context.Context, d Deps) *Verify { return &Verify{newBase(ctx, d)} }

// Run activates the account the code was mailed for.
func (v *Verify) Run(code string) error {
	if code == "" {
		return v.invalid("code", MsgVerifyFailed)
	}
	if _, err := v.API.VerifyAccount(v.ctx(), code); err != nil {
		return v.fail("verify", err)
	}
	v.succeed(MsgVerified)
	return nil
}

type ForgotPassword struct{ *base }

func NewForgotPassword(ctx context.Context, d Deps) *ForgotPassword {
	return &ForgotPassword{newBase(ctx, d)}
}

func (v *ForgotPassword) Submit(form models.ForgotPasswordForm) error {
	return v.once(func() error {
		if err := models.Check(form, MsgFillIn); err != nil {
			return v.fail("forgot password", err)
		}
		res, err := v.API.ForgotPassword(v.ctx(), form)
		if err != nil {
			return v.fail("forgot password", err)
		}
		v.succeed(res.Message)
		return nil
	})
}

// ResetPassword is reached from the mailed reset link.
type ResetPassword struct {
	*base
	code string
	user *models.User
}

func NewResetPassword(ctx context.Context, d Deps, code string) *ResetPassword {
	return &ResetPassword{base: newBase(ctx, d), code: code}
}

// Load fetches the user the code belongs to.
func (v *ResetPassword) Load() (*models.User, error) {
	res, err := v.API.ResetPasswordInfo(v.ctx(), v.code)
	if err != nil {
		return nil, v.fail("reset password", err)
	}
	if err := v.apply(func() { v.user = res.User }); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (v *ResetPassword) Submit(form models.ResetPasswordForm) error {
	return v.once(func() error {
		if err := models.Check(form, MsgFillAll); err != nil {
			return v.fail("reset password", err)
		}
		if v.user != nil {
			form.Email = v.user.Email
		}
		res, err := v.API.ResetPassword(v.ctx(), v.code, form)
		if err != nil {
			return v.fail("reset password", err)
		}
		v.succeed(res.Message)
		return nil
	})
}
