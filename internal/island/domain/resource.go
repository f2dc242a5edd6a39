package domain

import "fmt"

// Resource 是会产出的资源，只有五种，不含荒地。
type Resource uint8

const (
	Brick Resource = iota
	Wood
	Wheat
	Sheep
	Ore

	resourceCount = 5
)

// Resources 按展示顺序列出全部可产出资源。
var Resources = [resourceCount]Resource{Brick, Wood, Wheat, Sheep, Ore}

var resourceNames = [resourceCount]string{"brick", "wood", "wheat", "sheep", "ore"}

func (r Resource) Valid() bool {
	return r < resourceCount
}

func (r Resource) String() string {
	if !r.Valid() {
		return fmt.Sprintf("resource(%d)", uint8(r))
	}
	return resourceNames[r]
}

func ParseResource(s string) (Resource, error) {
	for i, name := range resourceNames {
		if name == s {
			return Resource(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

// ResourceKind 是地块上的六种地貌，KindNone 即荒地。
// 生成地图时六种等概率抽取。
type ResourceKind uint8

const (
	KindBrick ResourceKind = iota
	KindWood
	KindWheat
	KindSheep
	KindOre
	KindNone
)

var ResourceKinds = [...]ResourceKind{KindBrick, KindWood, KindWheat, KindSheep, KindOre, KindNone}

func (k ResourceKind) String() string {
	if k == KindNone {
		return "none"
	}
	return Resource(k).String()
}

// Terrain 把 ResourceKind 转成地貌。
func (k ResourceKind) Terrain() Terrain {
	if k >= KindNone {
		return Desert{}
	}
	return Producing{Resource: Resource(k)}
}

func ParseResourceKind(s string) (ResourceKind, error) {
	if s == "none" {
		return KindNone, nil
	}
	r, err := ParseResource(s)
	if err != nil {
		return 0, err
	}
	return ResourceKind(r), nil
}

// Terrain 是地块地貌：Desert 或 Producing。
// 只有 Producing 能拿到 Resource，荒地不产出由类型保证。
type Terrain interface {
	Kind() ResourceKind
	isTerrain()
}

// Desert 荒地，有点数但永不产出。
type Desert struct{}

func (Desert) Kind() ResourceKind { return KindNone }
func (Desert) isTerrain()         {}

// Producing 产出某种资源的地块。
type Producing struct {
	Resource Resource
}

func (p Producing) Kind() ResourceKind { return ResourceKind(p.Resource) }
func (Producing) isTerrain()           {}
