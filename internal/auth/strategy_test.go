package auth

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

func TestBearer(t *testing.T) {
	params, err := Bearer("abc")()
	if err != nil {
		t.Fatalf("Bearer failed: %v", err)
	}
	if got := params.Headers.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer abc")
	}
	if params.URL != "" {
		t.Errorf("URL = %q, want empty", params.URL)
	}

	if _, err := Bearer("")(); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestQueryToken(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		param    string
		want     url.Values
	}{
		{
			name:     "default param",
			endpoint: "ws://localhost:3000/ws",
			want:     url.Values{"token": {"secret"}},
		},
		{
			name:     "custom param keeps existing query",
			endpoint: "ws://localhost:3000/ws?room=7",
			param:    "auth",
			want:     url.Values{"auth": {"secret"}, "room": {"7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := QueryToken(tt.endpoint, tt.param, "secret")()
			if err != nil {
				t.Fatalf("QueryToken failed: %v", err)
			}
			u, err := url.Parse(params.URL)
			if err != nil {
				t.Fatalf("invalid URL %q: %v", params.URL, err)
			}
			if u.Path != "/ws" {
				t.Errorf("path = %q, want /ws", u.Path)
			}
			if got := u.Query(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("query = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryToken_Errors(t *testing.T) {
	if _, err := QueryToken("ws://localhost", "", "")(); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := QueryToken("://bad", "", "x")(); err == nil {
		t.Error("expected error for invalid endpoint")
	}
}

func TestSigned(t *testing.T) {
	creds := &Credentials{KeyID: "kid", PrivateKey: testKey(t)}

	params, err := Signed("wss://games.example.com/ws", creds)()
	if err != nil {
		t.Fatalf("Signed failed: %v", err)
	}
	if got := params.Headers.Get(HeaderAccessKey); got != "kid" {
		t.Errorf("%s = %q, want kid", HeaderAccessKey, got)
	}
	if params.Headers.Get(HeaderSignature) == "" {
		t.Errorf("%s is empty", HeaderSignature)
	}

	if _, err := Signed("wss://games.example.com", nil)(); err == nil {
		t.Error("expected error for nil credentials")
	}
}

func TestProtocols(t *testing.T) {
	strategy := Protocols(Bearer("abc"), "shoehive.v1", "json")

	params, err := strategy()
	if err != nil {
		t.Fatalf("Protocols failed: %v", err)
	}
	if want := []string{"shoehive.v1", "json"}; !reflect.DeepEqual(params.Protocols, want) {
		t.Errorf("Protocols = %v, want %v", params.Protocols, want)
	}
	if params.Headers.Get("Authorization") != "Bearer abc" {
		t.Error("wrapped strategy headers lost")
	}

	onlyProtocols, err := Protocols(nil, "v2")()
	if err != nil || !reflect.DeepEqual(onlyProtocols.Protocols, []string{"v2"}) {
		t.Errorf("Protocols(nil) = %v, %v", onlyProtocols, err)
	}
}

func TestProtocols_DoesNotAliasWrappedSlice(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "shoehive.v1"
	inner := shoehive.AuthStrategy(func() (shoehive.AuthParams, error) {
		return shoehive.AuthParams{Protocols: base}, nil
	})

	first, err := Protocols(inner, "json")()
	if err != nil {
		t.Fatalf("Protocols failed: %v", err)
	}
	second, err := Protocols(inner, "msgpack")()
	if err != nil {
		t.Fatalf("Protocols failed: %v", err)
	}

	if want := []string{"shoehive.v1", "json"}; !reflect.DeepEqual(first.Protocols, want) {
		t.Errorf("first = %v, want %v", first.Protocols, want)
	}
	if want := []string{"shoehive.v1", "msgpack"}; !reflect.DeepEqual(second.Protocols, want) {
		t.Errorf("second = %v, want %v", second.Protocols, want)
	}
	if len(base) != 1 || base[:2][1] != "" {
		t.Errorf("wrapped slice modified: %v", base[:2])
	}
}

func TestProtocols_PropagatesError(t *testing.T) {
	failing := shoehive.AuthStrategy(func() (shoehive.AuthParams, error) {
		return shoehive.AuthParams{}, errors.New("expired")
	})
	if _, err := Protocols(failing, "v1")(); err == nil {
		t.Error("expected error from wrapped strategy")
	}
}

func TestHeader(t *testing.T) {
	params, err := Header(Bearer("abc"), "User-Agent", "shoehive-client/dev")()
	if err != nil {
		t.Fatalf("Header failed: %v", err)
	}
	if got := params.Headers.Get("User-Agent"); got != "shoehive-client/dev" {
		t.Errorf("User-Agent = %q", got)
	}
	if params.Headers.Get("Authorization") != "Bearer abc" {
		t.Error("wrapped strategy headers lost")
	}

	params, err = Header(nil, "X-Table", "7")()
	if err != nil || params.Headers.Get("X-Table") != "7" {
		t.Errorf("Header(nil) = %+v, %v", params, err)
	}
}
