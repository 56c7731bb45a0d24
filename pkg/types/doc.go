// Package types defines the domain model shared by the runtime adapter,
// the object-store adapter, the session handle, the backup engine, and the
// lifecycle manager: session names, container properties, port bindings,
// backup artifact metadata, and the merged configuration document.
package types
