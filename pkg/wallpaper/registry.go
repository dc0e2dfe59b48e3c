package wallpaper

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/provider"
)

// ProviderFactory defines the function signature for creating a provider.
type ProviderFactory func(cfg config.Config, client *http.Client) provider.GalleryProvider

var (
	registryMu       sync.RWMutex
	providerRegistry = make(map[string]ProviderFactory)
)

// RegisterProvider registers a new gallery provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	providerRegistry[name] = factory
}

// GetRegisteredProviders returns the names of all registered providers, sorted.
func GetRegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider creates the named provider for cfg.
func NewProvider(name string, cfg config.Config, client *http.Client) (provider.GalleryProvider, error) {
	registryMu.RLock()
	factory, ok := providerRegistry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gallery provider %q is not registered", name)
	}
	return factory(cfg, client), nil
}
