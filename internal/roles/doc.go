// Package roles resolves which cloud interface backs which appliance role.
//
// Cloud interfaces are identified by subnet membership and appliance
// interfaces by local name. The two sides meet on a Role: a Classifier maps
// subnet identifiers to roles, BuildTable folds cloud interfaces into an
// AddressTable, and Reconcile applies the table to the appliance's own
// interface list.
package roles
