// Package actions implements the one-shot menu actions (new file from a
// template, copy path, open in terminal) and the Dispatcher that routes a
// chosen menu key to them or to the transfer engine.
package actions
