package nav

import (
	"testing"

	"github.com/matthewbaird/appdeck/internal/document"
)

func testApp() *document.App {
	return &document.App{
		ID:            "app1",
		InitialScreen: "home",
		Screens: []document.Screen{
			{ID: "home"},
			{ID: "dashboard", RequiresAuth: true},
		},
		Auth: &document.AuthConfig{
			UserTable:           "users",
			LoginRedirectScreen: document.AuthLoginScreen,
			PostLoginScreen:     "dashboard",
		},
	}
}

func TestResolve_PlainScreen(t *testing.T) {
	res := Resolve(testApp(), "home", false)
	if res.Screen == nil || res.Screen.ID != "home" {
		t.Fatalf("Screen = %+v, want home", res.Screen)
	}
	if res.Redirect != "" || res.Auth != AuthNone {
		t.Errorf("unexpected redirect %q / auth %q", res.Redirect, res.Auth)
	}
}

func TestResolve_AuthScreens(t *testing.T) {
	if res := Resolve(testApp(), document.AuthLoginScreen, false); res.Auth != AuthLogin {
		t.Errorf("auth = %q, want login", res.Auth)
	}
	if res := Resolve(testApp(), document.AuthSignupScreen, false); res.Auth != AuthSignup {
		t.Errorf("auth = %q, want signup", res.Auth)
	}
}

func TestResolve_GatedScreenDefersRedirect(t *testing.T) {
	res := Resolve(testApp(), "dashboard", false)
	if res.Screen != nil {
		t.Error("gated screen must yield no screen without a session")
	}
	if res.Redirect != document.AuthLoginScreen {
		t.Errorf("redirect = %q, want %q", res.Redirect, document.AuthLoginScreen)
	}
}

func TestResolve_GatedScreenWithSession(t *testing.T) {
	res := Resolve(testApp(), "dashboard", true)
	if res.Screen == nil || res.Screen.ID != "dashboard" {
		t.Fatalf("Screen = %+v, want dashboard", res.Screen)
	}
}

func TestResolve_InvalidScreenSelfCorrects(t *testing.T) {
	res := Resolve(testApp(), "deleted-screen", false)
	if res.Screen != nil {
		t.Error("invalid screen must yield no screen")
	}
	if res.Redirect != "home" {
		t.Errorf("redirect = %q, want home", res.Redirect)
	}
}

func TestResolve_EmptyStateAndNilApp(t *testing.T) {
	if res := Resolve(testApp(), "", false); res.Redirect != "home" {
		t.Errorf("empty state should redirect to initial screen, got %q", res.Redirect)
	}
	if res := Resolve(nil, "home", false); res.Screen != nil || res.Redirect != "" {
		t.Error("nil app must resolve to nothing")
	}
}
