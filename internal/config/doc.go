// Package config defines the configuration of a provisioning run.
//
// A [Config] names the cloud instance hosting the appliance, how to reach the
// appliance over SSH and REST, the fleet controller to register with, and the
// subnet rules used to classify interfaces. It is loaded from YAML, completed
// from environment variables for secrets, defaulted and validated before a
// run starts.
//
// Example:
//
//	cloud:
//	  provider: azure
//	  azure:
//	    subscriptionID: 00000000-0000-0000-0000-000000000000
//	    resourceGroup: hub-east
//	    vmName: ec-hub-1
//	appliance:
//	  host: 10.10.0.4
//	  ssh:
//	    user: admin
//	    privateKeyPath: ~/.ssh/ec_admin
//	    sessionLog: session.log
//	  account:
//	    username: ztp
//	controller:
//	  url: https://orchestrator.example.com
//	  group: hubs
//	roles:
//	  - pattern: ec-lan
//	    role: lan0
//	  - pattern: ec-wan0
//	    role: wan0
//	  - pattern: ec-wan1
//	    role: wan1
//	  - pattern: hub-mgmt
//	    role: mgmt0
//	report:
//	  path: edgeztp-report.yaml
package config
