// Package conformance validates contributions end to end.
//
// For each contribution the Validator runs these steps in order and stops
// at the first failure:
//
//  1. naming: the folder holds <name>.go
//  2. artifacts: every required file is present
//  3. load: the plugin starts and answers the handshake
//  4. exports: all seven standard functions are declared
//  5. required: required functions run and return arrays
//  6. optional: optional functions are unsupported or well typed
//  7. metadata: metadata.yml parses and matches the schema
//  8. examples: every declared example can be selected
//  9. licence: LICENCE is not empty
//
// Contributions are validated one at a time; a failure is recorded in that
// contribution's Result and the run moves on to the next one.
package conformance
