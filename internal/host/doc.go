// Package host is the plugin process's side of the host integration: a
// JSON-lines protocol on stdin/stdout through which the host asks for menus,
// runs actions and answers conflict prompts, and the static registration of
// the directories the host observes.
//
// Requests carry an id echoed by their response. Events (prompt, notice) are
// unsolicited. While an action waits on a prompt the server keeps reading, so
// the matching resolve request can arrive.
package host
