package loaders

type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	/** @brief A mesh topology shared by model instances. */
	ResourceTypeModelDefinition
)

/**
 * @brief A loaded asset.
 */
type Resource struct {
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the file the resource was read from, in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
