// Package ssh drives the appliance management console over SSH.
//
// It is used once per run to create the local account the REST client logs
// in with. The client authenticates with a private key and feeds a command
// script to an interactive shell, the way an operator would type it.
package ssh
