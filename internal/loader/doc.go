// Package loader starts contribution plugins and connects to them.
//
// A contribution is a Go program that serves the standard functions as MCP
// tools over stdio. In source mode ("pre") the loader runs the configured
// source command (go run . by default) inside the contribution folder. In
// installed mode ("post") it runs the executable <package>-<name> found on
// PATH, after prepending the configured bin directory to PATH once.
//
//	l := loader.New(loader.ModeSource, loader.WithLogger(logger))
//	m, err := l.Load(ctx, c)
//	if err != nil {
//		return err
//	}
//	defer m.Close()
package loader
