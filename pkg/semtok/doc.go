/*
Package semtok classifies dynamic tag expressions for syntax highlighting.

	Text                      Tokens
	 |                          ^
	 v                          |
	+---------+  tag tokens  +---------+
	| @parser | -----------> | @semtok |
	+---------+              +---------+
	                              |
	                        participle lexer
	                        (one tag at a time)

Text between tags becomes a single text token. Each tag is lexed into
operators, its group, its property, modifier keys and typed arguments.
Modifier keys carry flags for reserved control flow keys and group methods.
*/
package semtok
