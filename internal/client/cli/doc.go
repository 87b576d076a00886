// Package cli provides the interactive mailgate command-line client.
//
// The REPL keeps the session token in memory only. Commands:
//
//	register            create an account and log in
//	login               log in
//	logout              end the session
//	whoami              show the account and its forwarding address
//	forward <addr|->    set the forwarding address, or clear it with "-"
//	list                list received messages, newest first
//	delete <id>         delete a message
//	help, exit
package cli
