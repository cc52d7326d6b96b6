// Package device implements the keypad's operating cycle.
//
// The user never presses digit keys. Each session shows a freshly generated
// DigitMatrix; for every PIN position the user steers the row indicator with
// an analog axis and presses the button on whichever row holds the wanted
// digit. Six presses complete an attempt, which is verified, announced and
// followed by a new matrix.
//
// ARCHITECTURE:
//
// Single-Writer Main Loop:
// Device.Tick is the only code that touches navigation, the selection
// accumulator and the session matrix. Ticks come from a Ticker at the
// configured poll period (PollPeriod, 50 ms by default) and never overlap.
//
// Asynchronous Edge Source:
// The button's edge handler runs in its own context (an interrupt on the
// board, a goroutine here) and calls PressGate.Edge. The gate owns the
// debounce timestamp and a one-slot pending channel. It reads the clock and
// decides accept/reject under one lock, so a press can be neither
// double-counted nor lost to a torn read. The main loop only consumes the
// slot through InputSource.PollPressEvent.
//
// Tick Flow:
//  1. Read the axis and step navigation (clear the indicator strip on change)
//  2. Draw the indicator and present
//  3. Consume at most one pending press and append the current row
//  4. On the sixth selection: verify, show the result, announce feedback,
//     apply the press policy, start a new session
//
// There is no runtime error taxonomy here: generation is total, navigation
// clamps at the edges and verification is a boolean. The only errors are
// configuration errors, reported by Config.Validate before a Device exists.
//
// Verification is deliberately weak. A satisfied position proves only that
// the secret digit was one of the three digits on the chosen row. The scheme
// obfuscates a single observed session; it is not a cryptographic check.
package device
