// Package runner launches external programs and performs blocking delays on
// behalf of task steps.
//
// Every call blocks the caller until the subprocess exits or the delay elapses.
// Exit status conventions:
//   - clean exit → 0, nil error
//   - non-zero exit → the program's own status with the *exec.ExitError
//   - executable not found → 127, not executable → 126
//   - any other start failure → 1
package runner
