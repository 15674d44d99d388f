package main

import (
	"fmt"
	"sync"
)

// Routes the terminal front end understands.
const (
	routeLogin = "login"
	routeHome  = "home"
)

// terminalNavigator is the navigation boundary for the shell: it tracks the
// current route and announces forced transitions (e.g. after a terminal
// auth failure).
type terminalNavigator struct {
	mu    sync.Mutex
	route string
}

func newTerminalNavigator() *terminalNavigator {
	return &terminalNavigator{route: routeLogin}
}

func (n *terminalNavigator) ToLogin() {
	n.mu.Lock()
	changed := n.route != routeLogin
	n.route = routeLogin
	n.mu.Unlock()

	if changed {
		fmt.Println("Session ended. Sign in with: login <email> <password>")
	}
}

func (n *terminalNavigator) ToHome() {
	n.mu.Lock()
	n.route = routeHome
	n.mu.Unlock()
}

func (n *terminalNavigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}
