package version

import "testing"

func TestInfoContainsVersionAndCommit(t *testing.T) {
	info := Info()
	if info["version"] == "" {
		t.Fatalf("expected version to be present")
	}
	if _, ok := info["commit"]; !ok {
		t.Fatalf("expected commit key to be present")
	}
}
