// Package part defines the items that can be laid out on the plan view.
//
// # Types and Families
//
// Every [Item] carries exactly one [Type] for its whole lifetime. Types are
// grouped into families that share a parameter record:
//
//   - Gear family ([Spur], [Helical], [Bevel]): [GearParams]
//   - [Worm]: [WormParams]
//   - [Shaft]: [ShaftParams], an ordered list of [Segment] values
//   - [Bearing]: [BearingParams]
//   - [Housing]: [HousingParams]
//   - Simple parts ([Coupling], [Spacer], [Circlip]): [SimpleParams]
//
// [Params] is a closed interface; the only implementations are the six
// records above. Code that needs per-family behaviour switches on
// [Type.Family] and handles every [Family] value.
//
// # Coordinates
//
// X is the axial position (along shaft axes) and Y the transverse position,
// both in world millimetres. An item's position is its centre.
//
// # Mutation
//
// Items are values. [Item.Clone] deep-copies the parameter record so that
// snapshots handed out by the store never alias the store's own data.
// [Apply] and the segment helpers return a modified copy and leave their
// input untouched.
package part
