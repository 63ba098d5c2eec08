// Package common holds process-wide helpers shared by the binaries.
package common

var Version = "dev"

const PackageName = "eas-attestation-api"
