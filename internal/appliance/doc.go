// Package appliance defines the records exchanged with the edge appliance and
// its fleet controller.
//
// Interface keeps every JSON field the appliance returns, so a record can be
// sent back with only its hardware address changed.
package appliance
