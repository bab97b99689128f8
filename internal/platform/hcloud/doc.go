// Package hcloud discovers the private network attachments of a Hetzner
// Cloud server.
//
// Every private network the server is attached to becomes one cloud
// interface. The network name takes the place of a subnet identifier, so role
// rules match network names on Hetzner, and the MAC address is the one the
// API reports for the attachment. The public interface has no MAC address in
// the API and is not reported.
package hcloud
