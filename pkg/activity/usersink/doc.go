// Package usersink forwards environment activity events to a go-users
// ActivitySink.
package usersink
