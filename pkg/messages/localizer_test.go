package messages

import "testing"

func newTestLocalizer(t *testing.T) *Localizer {
	t.Helper()
	l, err := NewLocalizer("en")
	if err != nil {
		t.Fatalf("localizer: %v", err)
	}
	return l
}

func TestMessageTranslatesPerLocale(t *testing.T) {
	l := newTestLocalizer(t)
	if got := l.Message("en", KeyLoggedIn); got != "Login successful" {
		t.Fatalf("unexpected en message %q", got)
	}
	if got := l.Message("zh", KeyLoggedIn); got != "登录成功" {
		t.Fatalf("unexpected zh message %q", got)
	}
}

func TestMessageUnknownLocaleUsesDefault(t *testing.T) {
	l := newTestLocalizer(t)
	if got := l.Message("fr", KeyUnauthorized); got != "Please log in first" {
		t.Fatalf("unexpected fallback message %q", got)
	}
}

func TestMessageUnknownKeyReturnsKey(t *testing.T) {
	l := newTestLocalizer(t)
	if got := l.Message("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestNegotiate(t *testing.T) {
	l := newTestLocalizer(t)
	cases := map[string]string{
		"":                        "en",
		"zh-CN,zh;q=0.9,en;q=0.8": "zh",
		"fr-FR, en-US;q=0.5":      "en",
		"de":                      "en",
	}
	for header, want := range cases {
		if got := l.Negotiate(header); got != want {
			t.Fatalf("negotiate %q: expected %s, got %s", header, want, got)
		}
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range english {
		if _, ok := chinese[key]; !ok {
			t.Fatalf("zh catalog missing %s", key)
		}
	}
	if len(english) != len(chinese) {
		t.Fatalf("catalog sizes differ: en=%d zh=%d", len(english), len(chinese))
	}
}
