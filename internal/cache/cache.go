// Package cache はコマンド実行をまたいで使うファイルベースのキャッシュを提供する
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
)

// Cache はキャッシュインターフェース
type Cache interface {
	Get(key string, v interface{}) (bool, error)
	Set(key string, v interface{}, ttl time.Duration) error
	Clear() error
}

// FileCache はファイルベースのキャッシュ実装
//
// エントリごとに 1 ファイルを使い、期限切れは読み出し時に削除する
type FileCache struct {
	dir string
}

// cacheItem は保存エンベロープ
// Data は呼び出し側の型が分からないため RawMessage で保持する
type cacheItem struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Data      json.RawMessage `json:"data"`
}

// NewFileCache は新しい FileCache を作成する
// dir が空の場合はユーザーのキャッシュディレクトリ配下を使用する
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, errors.Wrap(err, "get user cache dir")
		}
		dir = filepath.Join(userCacheDir, "eden")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}

	return &FileCache{dir: dir}, nil
}

func (c *FileCache) getFilePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	filename := hex.EncodeToString(hash[:]) + ".json"
	return filepath.Join(c.dir, filename)
}

// Get はキャッシュを取得する
// 有効なエントリがあれば v へデコードして true を返す。
// 存在しない、期限切れ、またはデコード不能な場合は false を返す
func (c *FileCache) Get(key string, v interface{}) (bool, error) {
	path := c.getFilePath(key)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var item cacheItem
	if err := json.NewDecoder(f).Decode(&item); err != nil {
		return false, nil
	}

	if time.Now().After(item.ExpiresAt) {
		_ = os.Remove(path)
		return false, nil
	}

	if err := json.Unmarshal(item.Data, v); err != nil {
		return false, errors.Wrap(err, "unmarshal cache data")
	}

	return true, nil
}

// Set はキャッシュを保存する
func (c *FileCache) Set(key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal cache data")
	}
	item := cacheItem{
		ExpiresAt: time.Now().Add(ttl),
		Data:      data,
	}

	f, err := os.Create(c.getFilePath(key))
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(item)
}

// Clear はキャッシュディレクトリを削除する
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}
