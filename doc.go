// Package offcanvas renders a 2D entity scene on a dedicated draw worker.
//
// The main tick loop owns the live scene. Each tick it asks a [Pacer] whether
// a frame is due, takes a by-value snapshot of the scene with a [Builder],
// encodes it into a flat [Frame] and sends it over a [Channel] to a [Worker]
// goroutine. The worker replays the snapshot against a [Canvas] and posts a
// [Ready] acknowledgement; no further frame is sent until it arrives.
//
// # Quick start
//
// The simplest way to get a window is the display package:
//
//	g := offcanvas.NewGraph()
//	surface := g.Spawn(0)
//	g.SetTransform(surface, offcanvas.NewTransform(mgl64.Vec2{}, mgl64.Vec2{}))
//	box := g.Spawn(0)
//	g.SetTransform(box, offcanvas.NewTransform(mgl64.Vec2{100, 100}, mgl64.Vec2{}))
//	g.SetSprite(box, offcanvas.NewSprite(offcanvas.ShapeRectangle, offcanvas.ColorMaterial("tomato")))
//
//	display.Run(g, surface, display.RunConfig{Title: "demo", Width: 640, Height: 480})
//
// For full control, implement [Host] yourself, create a [Renderer] with
// [NewRenderer] and call [Renderer.Update] from your loop.
//
// # Coordinates
//
// The surface entity's Transform.Size is the logical canvas size. Its width
// comes from [Config] (1000 by default) and its height follows the host's
// aspect ratio. The origin is the center of the canvas and +y points up. A
// logical unit covers DevicePixelRatio backing-store pixels.
//
// # Scene sources
//
// Any store implementing [SceneSource] can be rendered. [Graph] is a small
// map-backed store; the ecs subpackage adapts donburi and ark worlds.
// Only entities with both a [Transform] and a [Sprite] are drawn, and
// siblings are drawn in ascending [Sprite.ZIndex] order.
//
// # Images
//
// Decode with [DecodeImage] or [LoadImageFile] and upload once with
// [Renderer.LoadImage]; reference the returned [Handle] from
// [HandleMaterial]. Materials holding a raw image still draw, but the image
// is copied into every frame and a warning is logged.
//
// # Errors
//
// Sends never block. A full queue yields [ErrQueueFull] and the frame is
// retried on the next tick. Worker failures are collected by [Renderer.Err].
//
// # Logging
//
// Nothing is logged until [SetLogger] installs a [log/slog] logger.
// [Renderer.SetDebugMode] adds per-frame timings at debug level.
package offcanvas
