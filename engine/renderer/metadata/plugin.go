package metadata

import (
	"errors"
)

/**
 * @brief CallbackPlugin adapts plain functions to the MaterialPlugin
 * interface. OnConstruct and OnBind are required; readiness and
 * serialization hooks are optional and default to no-ops.
 */
type CallbackPlugin struct {
	PluginName  string
	OnConstruct func(material *Material) error
	OnIsReady   func(material *Material, scene *Scene, subMesh *SubMesh) bool
	OnBind      func(material *Material, scene *Scene, subMesh *SubMesh, effect *Effect, writer UniformWriter) error
	OnSerialize func(doc *MaterialDocument)
}

func (p *CallbackPlugin) Construct(material *Material) error {
	if p.OnConstruct == nil || p.OnBind == nil {
		return errors.New("callback plugin requires OnConstruct and OnBind")
	}
	return p.OnConstruct(material)
}

func (p *CallbackPlugin) IsReadyForSubMesh(material *Material, scene *Scene, subMesh *SubMesh) bool {
	if p.OnIsReady == nil {
		return true
	}
	return p.OnIsReady(material, scene, subMesh)
}

func (p *CallbackPlugin) Bind(material *Material, scene *Scene, subMesh *SubMesh, effect *Effect, writer UniformWriter) error {
	return p.OnBind(material, scene, subMesh, effect, writer)
}

func (p *CallbackPlugin) Serialize(doc *MaterialDocument) {
	if p.OnSerialize != nil {
		p.OnSerialize(doc)
	}
}
