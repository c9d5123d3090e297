// Package paths resolves the directories espresso reads from and writes to.
//
// Directory lookups follow the XDG Base Directory Specification through
// [github.com/adrg/xdg]. The ESPRESSO_CONFIG_DIR environment variable
// overrides the configuration directory, which keeps tests hermetic.
package paths
