// Package testutil provides helpers shared by the dcx test suites.
//
// [AssertGolden] compares rendered output against files under
// testdata/golden; pass -update-golden to regenerate them:
//
//	go test ./pkg/resolver/... -update-golden
//
// [WriteRules] materializes a rules directory from a name to content map.
package testutil
