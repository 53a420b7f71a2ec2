package scene

import "fmt"

// ObjectType discriminates what an object carries.
type ObjectType string

const (
	ObjectMesh   ObjectType = "MESH"
	ObjectLight  ObjectType = "LIGHT"
	ObjectCamera ObjectType = "CAMERA"
	ObjectEmpty  ObjectType = "EMPTY"
)

// Object is one scene member. Only mesh objects carry mesh data and
// material slots.
type Object struct {
	Name string
	Type ObjectType
	Mesh *Mesh

	selected   bool
	slots      []*Material
	activeSlot int
}

// NewMeshObject wraps m in a mesh object.
func NewMeshObject(name string, m *Mesh) *Object {
	return &Object{Name: name, Type: ObjectMesh, Mesh: m}
}

// Select sets the object's selection flag.
func (o *Object) Select(on bool) {
	o.selected = on
}

// Selected reports the selection flag.
func (o *Object) Selected() bool {
	return o.selected
}

// AddMaterial appends m as a new material slot. The first slot added
// becomes the active one.
func (o *Object) AddMaterial(m *Material) {
	o.slots = append(o.slots, m)
}

// MaterialSlots returns the object's material slots in order.
func (o *Object) MaterialSlots() []*Material {
	return o.slots
}

// ActiveMaterial returns the material in the active slot, or nil when
// the object has no slots.
func (o *Object) ActiveMaterial() *Material {
	if o.activeSlot < 0 || o.activeSlot >= len(o.slots) {
		return nil
	}
	return o.slots[o.activeSlot]
}

// ActiveMaterialIndex returns the active slot index.
func (o *Object) ActiveMaterialIndex() int {
	return o.activeSlot
}

// SetActiveMaterialIndex switches the active slot.
func (o *Object) SetActiveMaterialIndex(i int) error {
	if i < 0 || i >= len(o.slots) {
		return fmt.Errorf("material slot %d out of range (have %d)", i, len(o.slots))
	}
	o.activeSlot = i
	return nil
}
