// Package event provides a pub-sub event bus for decoupled communication
// between the host runtime and the edits that patch it.
//
// The host publishes a [MethodCompilingEvent] on a per-method channel
// ([CompileEventType]) every time it compiles a method; edits subscribe to
// that channel to rewrite the body. The edit harness publishes
// [PatchAppliedEvent], [PatchFailedEvent], [EditLoadedEvent] and
// [EditUnloadedEvent] for anyone interested in diagnostics.
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously and protected against panics: a panicking handler is logged
// and does not prevent other handlers from being called.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	id := bus.Subscribe(event.CompileEventType(method), func(e event.Event) {
//	    ev := e.(*event.MethodCompilingEvent)
//	    patch(ev.Context)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
//
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action": patch.applied,
// patch.failed, edit.loaded, edit.unloaded. Compile channels are
// "il:<Type>::<Method>".
package event
