package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v1.2.3"

	if got := String(); !strings.HasPrefix(got, "version: v1.2.3\n") {
		t.Errorf("String() = %q", got)
	}
	if got := ServerHeader(); got != "rigport/v1.2.3" {
		t.Errorf("ServerHeader() = %q", got)
	}
	if got := Get().Version; got != "v1.2.3" {
		t.Errorf("Get().Version = %q", got)
	}
	if !strings.Contains(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}
