package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FF_INT", "12")
	t.Setenv("FF_BAD_INT", "twelve")
	t.Setenv("FF_FLOAT", "0.25")
	t.Setenv("FF_BOOL", "off")
	t.Setenv("FF_DUR", "90s")
	t.Setenv("FF_DUR_SECS", "30")
	t.Setenv("FF_LIST", " monthly, ,yearly ")

	if got := GetEnvAsInt("FF_INT", 1, nil); got != 12 {
		t.Fatalf("GetEnvAsInt: got %d", got)
	}
	if got := GetEnvAsInt("FF_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt fallback: got %d", got)
	}
	if got := GetEnvAsFloat("FF_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("GetEnvAsFloat: got %v", got)
	}
	if got := GetEnvAsBool("FF_BOOL", true, nil); got {
		t.Fatalf("GetEnvAsBool: expected false")
	}
	if got := GetEnvAsDuration("FF_DUR", time.Second, nil); got != 90*time.Second {
		t.Fatalf("GetEnvAsDuration: got %v", got)
	}
	if got := GetEnvAsDuration("FF_DUR_SECS", time.Second, nil); got != 30*time.Second {
		t.Fatalf("GetEnvAsDuration secs: got %v", got)
	}
	if got := GetEnvAsList("FF_LIST", nil, nil); !reflect.DeepEqual(got, []string{"monthly", "yearly"}) {
		t.Fatalf("GetEnvAsList: got %v", got)
	}
	if got := GetEnv("FF_MISSING", "dflt", nil); got != "dflt" {
		t.Fatalf("GetEnv default: got %q", got)
	}
}
