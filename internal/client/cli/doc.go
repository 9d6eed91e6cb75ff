// Package cli is the interactive terminal front-end of the SchoolConnect
// client.
//
// The App renders the route guard: a placeholder while the persisted
// session is being restored, an email/password prompt when nobody is
// signed in, and the dashboard otherwise. After startup a REPL accepts
// commands:
//
//	Signed out:
//	  - help           show available commands
//	  - login          sign in
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help           show available commands
//	  - dashboard      show the dashboard again
//	  - whoami         print the signed-in account
//	  - users          list all users by role (elevated owner only)
//	  - create-admin   create an administrator or user (elevated owner only)
//	  - logout         sign out
//	  - exit | quit    leave the program
//
// Rejections from the identity service are printed with the service's own
// message.
package cli
