// Package scene provides the declarative WebVR scene model.
//
// A [Scene] is a tree of [Entity] values that maps one-to-one onto A-Frame
// markup: every entity has a tag (a-entity, a-sphere, a-text, ...), a set of
// attributes and an ordered list of children. The package is the single
// source of truth for the scene wire format used by the sinks, the cache and
// the server.
//
// # Typed Attributes
//
// Entities carry the attributes vrplot knows about as typed fields:
//
//   - Transform: Position, Rotation, Scale ([Vec3])
//   - Appearance: Color, Radius, [Geometry], [Material], [Text], [Line]
//   - Interaction: [Binding] values (event-set components)
//
// Anything else is passed through opaquely via Entity.Extra. Known fields are
// validated by [Entity.Validate]; Extra values are not interpreted, but Extra
// keys may not shadow a known attribute.
//
// # Attribute Strings
//
// [Entity.Attributes] flattens the typed fields into the A-Frame attribute
// syntax:
//
//	position="0 1.5 -2"
//	geometry="primitive: box; width: 0.1; height: 0.1; depth: 0.1"
//	event-set__click="_event: click; _target: #label-view; visible: true"
//
// # JSON Form
//
// Scenes marshal to a structural JSON document:
//
//	{
//	  "template": "default",
//	  "title": "mtcars",
//	  "children": [
//	    {"tag": "a-entity", "attributes": {"id": "rig"}, "children": [...]}
//	  ]
//	}
//
// Vectors are encoded as 3-element arrays and component objects as nested
// maps so consumers do not need to parse A-Frame attribute strings.
package scene
