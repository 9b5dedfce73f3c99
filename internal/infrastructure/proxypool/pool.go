package proxypool

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
)

// Pool hands out proxy URLs round-robin. Safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	proxies []string
	next    int
}

// LoadPool reads one proxy URL per line from filePath. Blank lines and
// lines starting with # are skipped. An empty pool is a ConfigError since
// an action that names a pool expects it to route somewhere.
func LoadPool(filePath string, log port.Logger) (*Pool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, entity.NewConfigError("failed to open proxy file %s: %v", filePath, err)
	}
	defer file.Close()

	var proxies []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, entity.NewConfigError("error scanning proxy file %s: %v", filePath, err)
	}
	if len(proxies) == 0 {
		return nil, entity.NewConfigError("proxy file %s contains no proxies", filePath)
	}

	if log != nil {
		log.Info("Proxy pool loaded", "path", filePath, "size", len(proxies))
	}
	return &Pool{proxies: proxies}, nil
}

// Next returns the next proxy URL in rotation.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	proxy := p.proxies[p.next%len(p.proxies)]
	p.next++
	return proxy
}

// Size returns the number of proxies in the pool.
func (p *Pool) Size() int {
	return len(p.proxies)
}
