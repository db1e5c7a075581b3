package cache

// KeyPrefix - префиксы для разных типов ключей
type KeyPrefix string

const (
	PrefixURL KeyPrefix = "url" // url:shortCode
)

// KeyBuilder - построитель ключей кэша
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build создает ключ с префиксом и опциональным namespace
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// URL создает ключ для хранения URL по короткому коду
func (k *KeyBuilder) URL(shortCode string) string {
	return k.Build(PrefixURL, shortCode)
}
