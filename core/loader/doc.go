// Package loader registers HTTP features on the fiber app.
//
// A feature implements Feature; the Manager keeps them in registration
// order and LoadAll mounts the routes of every enabled one.
//
//	mgr := loader.NewManager()
//	mgr.Register(libraries.NewFeature(libs, boot, logg))
//	err := mgr.LoadAll(app)
package loader
