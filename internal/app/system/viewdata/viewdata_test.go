package viewdata

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
)

func TestNewBaseVM_Visitor(t *testing.T) {
	r := httptest.NewRequest("GET", "/login", nil)
	vm := NewBaseVM(r, "Sign in", "/")

	if vm.IsLoggedIn {
		t.Error("visitor must not be logged in")
	}
	if vm.Menu.State != navigation.Unknown {
		t.Errorf("menu state = %v, want Unknown", vm.Menu.State)
	}
	if vm.Title != "Sign in" || vm.SiteName != SiteName {
		t.Errorf("vm = %+v", vm)
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	r := httptest.NewRequest("GET", "/halls?notice=Hall+created.", nil)
	r = auth.WithTestUser(r, &auth.Session{
		ID: "s1", UserID: "1", FirstName: "Ngozi", LastName: "Okafor",
		Role: "staff", ApplicationType: "basic", AccessToken: "t",
	})

	vm := NewBaseVM(r, "Halls", "/dashboard").InSection("halls")

	if !vm.IsLoggedIn || vm.Role != "STAFF" || vm.UserName != "Ngozi Okafor" {
		t.Errorf("user fields = %+v", vm)
	}
	if vm.ApplicationType != "BASIC" {
		t.Errorf("ApplicationType = %q", vm.ApplicationType)
	}
	if vm.Menu.State != navigation.Populated {
		t.Errorf("menu state = %v", vm.Menu.State)
	}
	if !vm.Active("halls") || vm.Active("payments") {
		t.Error("Active should match the section")
	}
	if vm.Notice != "Hall created." {
		t.Errorf("Notice = %q", vm.Notice)
	}
}
