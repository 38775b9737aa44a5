package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func TestInit_JSONNamesAndPwdAlias(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(credentials{Email: "not-an-email", Password: "123"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	details := ToDetails(err)

	if details["email"] != "must be a valid email" {
		t.Errorf("email detail = %q", details["email"])
	}
	if details["password"] != "must be at least 6 characters long" {
		t.Errorf("password detail = %q", details["password"])
	}
}

func TestInit_RequiredUsesJSONName(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(credentials{})
	details := ToDetails(err)

	if details["email"] != "is required" {
		t.Errorf("email detail = %q, details %v", details["email"], details)
	}
	if _, ok := details["Email"]; ok {
		t.Error("details keyed by struct field name instead of json tag")
	}
}

func TestToDetails_NumericMin(t *testing.T) {
	Init()

	type payload struct {
		Age int `json:"age" binding:"min=18"`
	}
	details := ToDetails(binding.Validator.ValidateStruct(payload{Age: 5}))
	if details["age"] != "must be at least 18" {
		t.Errorf("age detail = %q", details["age"])
	}
}

func TestToDetails_MalformedJSON(t *testing.T) {
	var dst struct {
		Points int `json:"points"`
	}

	syntaxErr := json.Unmarshal([]byte(`{"points":`), &dst)
	if got := ToDetails(syntaxErr); got["payload"] != "invalid json" {
		t.Errorf("syntax error details = %v", got)
	}

	typeErr := json.Unmarshal([]byte(`{"points":"many"}`), &dst)
	if got := ToDetails(typeErr); got["payload"] != "invalid json" {
		t.Errorf("type error details = %v", got)
	}
}

func TestToDetails_FallbackAndNil(t *testing.T) {
	if got := ToDetails(nil); got != nil {
		t.Errorf("nil error details = %v, want nil", got)
	}
	got := ToDetails(errors.New("read: connection reset"))
	if got["payload"] != "invalid payload" {
		t.Errorf("fallback details = %v", got)
	}
}
