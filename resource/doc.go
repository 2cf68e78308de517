// Package resource tracks foreign array handles for the duration of a
// marshaling call.
//
// Every array obtained from the engine, whether fetched from the workspace
// or created for encoding, is owned by the bridge until destroyed. The
// Table maps integer handles to those arrays and destroys them on Remove:
//
//	table := resource.NewTable()
//	scope := table.NewScope()
//	defer scope.Close()
//
//	h, err := scope.Acquire(uint32(arr.ClassID()), arr)
//	// ... read arr ...
//	scope.Release(h)
//
// Scope.Close runs on every exit path, so a failure while decoding the
// third element of a cell still releases the handles of the first two.
//
// # Observers
//
// Register observers to track handle lifecycle events:
//
//	counter := &resource.Counter{}
//	table.Subscribe(counter)
//	// ...
//	counter.Live() // 0 once every scope has closed
//
// A Table is safe for concurrent use; a Scope belongs to one call.
package resource
