// Package body provides the unified HTTP message body used for both inbound
// and outbound messages.
//
// A *Body holds exactly one of four payload representations, fixed when it is
// built:
//
//   - Empty: no payload.
//   - Full: one in-memory buffer, yielded as a single data frame.
//   - Boxed: any implementation of Impl, dispatched dynamically.
//   - Incoming: bytes arriving live from a connection.
//
// # Construction
//
//	b := body.Empty()
//	b := body.FromBytes(buf)               // takes ownership, no copy
//	b := body.FromStaticString("pong")     // shares static bytes, no copy
//	b, err := body.FromJSON(user)          // err wraps body.ErrSerialization
//	b := body.FromReader(file)             // lazy, one chunk in flight
//	b := body.FromChannel(ch, body.WithTrailers(trailers))
//	b := body.FromRequest(r)               // Incoming body of a server request
//	b := body.Box(custom)                  // type-erase any Impl
//
// Box returns an already boxed body unchanged, so wrapping layers can re-box
// freely.
//
// # Polling
//
// Consumers pull frames with PollFrame. A poll never blocks: it returns a
// frame, Done, a failure, or Pending after arranging for the supplied Waker
// to be woken.
//
//	wake := make(chan struct{}, 1)
//	w := body.WakerFunc(func() {
//		select {
//		case wake <- struct{}{}:
//		default:
//		}
//	})
//	for {
//		p := b.PollFrame(w)
//		switch {
//		case p.IsReady():
//			f, _ := p.Value()
//			// write f
//		case p.IsDone():
//			return nil
//		case p.IsFailed():
//			return p.Err()
//		default:
//			<-wake
//		}
//	}
//
// Frame and Collect wrap this loop for callers that are fine with parking a
// goroutine, and ByteStream exposes the data frames only, including as an
// io.Reader.
//
// # Errors
//
// Every variant reports failures as *Error. errors.Is matches the kind
// sentinels (ErrSerialization, ErrSource, ErrConnection, ErrExternal) and
// errors.As still reaches the original error through Unwrap. A failed body
// keeps returning the same error; a drained body keeps returning Done.
//
// # Resources
//
// Close releases whatever a body holds and stops any receive goroutine.
// Always close bodies that are abandoned before they are drained.
package body
