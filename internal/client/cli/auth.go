package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/authority"
	"github.com/dmitrijs2005/teamdeck/internal/client/services"
	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// describeAuthError turns an auth failure into a line for the user.
func describeAuthError(err error) string {
	switch {
	case errors.Is(err, services.ErrBusy):
		return "Another sign-in operation is still running, try again in a moment."
	case errors.Is(err, services.ErrEmptyCredentials):
		return "Email and password are required."
	case errors.Is(err, services.ErrStorageUnavailable):
		return "Sign-in is disabled until local storage works again."
	case errors.Is(err, services.ErrReset):
		return "Sign-in was cancelled because the saved sign-in was cleared."
	}
	switch authority.KindOf(err) {
	case authority.KindUnauthorized:
		return "Invalid email or password."
	case authority.KindConflict:
		return "An account with this email already exists."
	case authority.KindInvalidArgument:
		return "The authority rejected the request: " + err.Error()
	case authority.KindRateLimited:
		return "Too many attempts, slow down and try again later."
	case authority.KindUnavailable:
		return "The identity service is unreachable."
	}
	return "Unexpected error: " + err.Error()
}

// Register prompts for a display name, email and password and creates an
// account. It does not sign in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.CreateAccount(ctx, name, email, string(password)); err != nil {
		fmt.Fprintln(a.out, describeAuthError(err))
		return nil
	}

	fmt.Fprintln(a.out, "Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and signs in. Failures are reported to the
// user and leave the current state untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, describeAuthError(err))
		return nil
	}

	if u := a.authService.State().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	}
	return nil
}

// Logout invalidates the sessions. The store keeps the session when the
// remote call fails, so the outcome is read back from the state.
func (a *App) Logout(ctx context.Context) error {
	defer a.reporting()()

	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, describeAuthError(err))
		return nil
	}
	if a.authService.State().SignedIn() {
		fmt.Fprintln(a.out, "Logout failed, you are still signed in.")
		return nil
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Verify re-checks the held session with the authority.
func (a *App) Verify(ctx context.Context) error {
	defer a.reporting()()

	if err := a.authService.VerifySession(ctx); err != nil {
		fmt.Fprintln(a.out, describeAuthError(err))
		return nil
	}
	if a.authService.State().SignedIn() {
		fmt.Fprintln(a.out, "Session is valid.")
	} else {
		fmt.Fprintln(a.out, "No valid session.")
	}
	return nil
}

// WhoAmI prints the signed-in profile and the token expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.authService.State()
	if !st.SignedIn() || st.User == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "Name:  %s\n", u.Name)
	fmt.Fprintf(a.out, "Email: %s\n", u.Email)
	fmt.Fprintf(a.out, "ID:    %s\n", u.ID)
	if rep, ok := u.Prefs.Reputation(); ok {
		fmt.Fprintf(a.out, "Reputation: %g\n", rep)
	}
	if exp, ok := tokenExpiry(st.JWT); ok {
		fmt.Fprintf(a.out, "Token expires: %s\n", exp.Local().Format(time.RFC1123))
	}
	if st.Session != nil && !st.Session.Expire.IsZero() {
		fmt.Fprintf(a.out, "Session expires: %s\n", st.Session.Expire.Local().Format(time.RFC1123))
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client has no key and only displays it.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Reset wipes the persisted auth state after confirmation and reloads.
func (a *App) Reset(ctx context.Context) error {
	if !confirm(a.reader, "This clears the saved sign-in. Continue?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	done := a.reporting()
	err := a.authService.Reset(ctx)
	done()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved sign-in cleared.")
	return nil
}
