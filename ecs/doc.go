// Package ecs adapts ECS worlds to offcanvas scene sources.
//
// [Donburi] wraps a [donburi] world: Transform, Sprite and Text are ordinary
// donburi components and the parent/child links live in a Hierarchy
// component. [Ark] does the same for an [ark] world.
//
// Both adapters implement [offcanvas.SceneSource] and
// [offcanvas.ParentSource], so they can be passed to [offcanvas.NewRenderer]
// and to [offcanvas.GlobalPose].
//
// Renderer acknowledgements can be forwarded into a donburi world as typed
// events:
//
//	renderer.OnReady(ecs.PublishReady(world))
//	ecs.ReadyEventType.Subscribe(world, onReady)
//	// each tick
//	ecs.ReadyEventType.ProcessEvents(world)
//
// [donburi]: https://github.com/yohamta/donburi
// [ark]: https://github.com/mlange-42/ark
package ecs
