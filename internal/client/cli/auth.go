package cli

import (
	"context"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.printf("Login failed: %v\n", err)
		return
	}

	a.printf("Logged in as %s\n", a.session.Snapshot().User.Name)
	if err := a.collection.Refresh(ctx); err != nil {
		a.printf("Could not load recipes: %v\n", err)
	}
}

func (a *App) Signup(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		a.printf("error: %v\n", err)
		return
	}

	if err := a.session.Signup(ctx, email, string(password), name); err != nil {
		a.printf("Signup failed: %v\n", err)
		return
	}

	a.printf("Account created, logged in as %s\n", a.session.Snapshot().User.Name)
	if err := a.collection.Refresh(ctx); err != nil {
		a.printf("Could not load recipes: %v\n", err)
	}
}

func (a *App) Logout(ctx context.Context) {
	a.form.Cancel()
	a.session.Logout(ctx)
	a.printf("Logged out\n")
}
