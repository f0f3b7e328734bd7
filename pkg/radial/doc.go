// Package radial ties the navigator together.
//
// A [Controller] owns one hierarchy and its layout. It loads the document
// through a data source, resolves dimensions for the container, lays the
// tree out, classifies it against the current selection and hands the
// result to a [Renderer] as a [Frame]. The core entry points are
// [Controller.Select], [Controller.Resize], [Controller.SetData] and
// [Controller.Destroy].
//
// # Select
//
// Select marks a node current and enters the transitioning state. It then
// queues content preloads for the node and its children, computes the new
// classification, and animates from the frame on screen to the new one.
// The state returns to idle once the final frame has been rendered. A
// Select issued while another one is animating fails with
// selection.ErrTransitioning and changes nothing.
//
// # Errors
//
// Failures to load the initial hierarchy are fatal: [Controller.Init] puts
// the controller in the [Failed] state and reports a DATA_FETCH_ERROR
// notification. Preload and render failures are reported as non-fatal
// notifications and never block a selection.
//
// # Registry
//
// [Registry] maps container ids to controllers with an explicit
// create/get/destroy lifecycle.
package radial
