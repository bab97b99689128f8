package roles

import "testing"

// azureRules mirrors the subnet naming used by the reference Azure hub deployment.
var azureRules = []Rule{
	{Pattern: "ec-lan", Role: RoleLAN0},
	{Pattern: "ec-wan0", Role: RoleWAN0},
	{Pattern: "ec-wan1", Role: RoleWAN1},
	{Pattern: "hub-mgmt", Role: RoleMGMT0},
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(azureRules)
	if err != nil {
		t.Fatalf("failed to build classifier: %v", err)
	}
	return c
}
