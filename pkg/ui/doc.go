// Package ui implements conman's terminal surface: the yes/no confirmation
// prompt the installer blocks on, diff rendering for conflicting files, and
// styled status output.
package ui
