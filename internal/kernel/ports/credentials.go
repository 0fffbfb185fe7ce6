// Package ports defines the interfaces for OS abstraction.
package ports

import "os/exec"

// CredentialManager resolves a descriptor's user field to a UID/GID pair
// and applies it to a spawned command. There is no group surface: a
// service descriptor names a user, never a separate group, so the
// resolved GID is always the user's primary group.
type CredentialManager interface {
	// LookupUser looks up a user by name or numeric UID.
	//
	// Params:
	//   - nameOrID: the username or numeric UID to look up
	//
	// Returns:
	//   - *User: the user information if found
	//   - error: an error if the user could not be found
	LookupUser(nameOrID string) (*User, error)

	// ResolveCredentials resolves a username to its UID and primary GID.
	//
	// Params:
	//   - username: the username to resolve (can be empty)
	//
	// Returns:
	//   - uid: the resolved user ID
	//   - gid: the resolved primary group ID
	//   - err: an error if resolution failed
	ResolveCredentials(username string) (uid, gid uint32, err error)

	// ApplyCredentials applies uid/gid credentials to a command.
	//
	// Params:
	//   - cmd: the command to apply credentials to
	//   - uid: the user ID to set
	//   - gid: the group ID to set
	//
	// Returns:
	//   - error: an error if credentials could not be applied
	ApplyCredentials(cmd *exec.Cmd, uid, gid uint32) error
}
