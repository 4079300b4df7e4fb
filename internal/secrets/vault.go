package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/crypto/pbkdf2"
)

// VaultFileName はローカルボールトのファイル名
const VaultFileName = ".secrets"

const (
	vaultVersion  = 1
	vaultKDF      = "pbkdf2-sha256"
	kdfIterations = 480000
	keyLen        = 32
)

// 鍵導出ソルト。ボールトフォーマットの一部なので変更しない
var kdfSalt = []byte("eden.secrets.v1")

// LocalManager は AES-256-GCM で暗号化したボールトファイルにシークレットを保存する
type LocalManager struct {
	dir     string
	keyFile string
}

// NewLocal はリポジトリ直下の .secrets を使う LocalManager を作成する
func NewLocal(dir string) *LocalManager {
	return &LocalManager{
		dir:     dir,
		keyFile: cachedKeyPath(),
	}
}

func cachedKeyPath() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "eden", "vault.key")
}

// Type はマネージャ種別を返す
func (m *LocalManager) Type() string {
	return "local"
}

// VaultPath はボールトファイルのパスを返す
func (m *LocalManager) VaultPath() string {
	return filepath.Join(m.dir, VaultFileName)
}

// CachedKeyPath はキャッシュ鍵ファイルのパスを返す
func (m *LocalManager) CachedKeyPath() string {
	return m.keyFile
}

func deriveKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIterations, keyLen, sha256.New)
}

func (m *LocalManager) loadKey() ([]byte, error) {
	key, err := os.ReadFile(m.keyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPassphraseRequired
		}
		return nil, errors.Wrapf(err, "read %s", m.keyFile)
	}
	if len(key) != keyLen {
		return nil, errors.Wrap(ErrPassphraseRequired, "cached key is invalid")
	}
	return key, nil
}

func (m *LocalManager) storeKey(key []byte) error {
	if err := os.MkdirAll(filepath.Dir(m.keyFile), 0o700); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(m.keyFile))
	}
	if err := os.WriteFile(m.keyFile, key, 0o600); err != nil {
		return errors.Wrapf(err, "write %s", m.keyFile)
	}
	return nil
}

// CacheKey はパスフレーズから鍵を導出して検証し、鍵ファイルにキャッシュする
func (m *LocalManager) CacheKey(passphrase string) error {
	key := deriveKey(passphrase)
	if _, err := os.Stat(m.VaultPath()); err == nil {
		// 既存ボールトを開けることを確認してからキャッシュする
		if _, err := m.readVault(key); err != nil {
			return err
		}
	}
	return m.storeKey(key)
}

// RotateKey はボールトを新しいパスフレーズで暗号化し直す
func (m *LocalManager) RotateKey(ctx context.Context, oldPassphrase, newPassphrase string) error {
	oldKey := deriveKey(oldPassphrase)
	vault, err := m.readVault(oldKey)
	if err != nil {
		return err
	}
	newKey := deriveKey(newPassphrase)
	if err := m.writeVault(newKey, vault); err != nil {
		return err
	}
	return m.storeKey(newKey)
}

func seal(key, plaintext []byte) (nonce, sealed []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "init cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, errors.Wrap(err, "init gcm")
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, errors.Wrap(err, "generate nonce")
	}
	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

func unseal(key, nonce, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "init gcm")
	}
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	return plaintext, nil
}

type vaultEnvelope struct {
	version    int
	kdf        string
	iterations int
	nonce      []byte
	data       []byte
}

func encodeEnvelope(nonce, sealed []byte) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("version")
	e.Int(vaultVersion)
	e.FieldStart("kdf")
	e.Str(vaultKDF)
	e.FieldStart("iterations")
	e.Int(kdfIterations)
	e.FieldStart("nonce")
	e.Base64(nonce)
	e.FieldStart("data")
	e.Base64(sealed)
	e.ObjEnd()
	return e.Bytes()
}

func decodeEnvelope(data []byte) (*vaultEnvelope, error) {
	var env vaultEnvelope
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			env.version, err = d.Int()
		case "kdf":
			env.kdf, err = d.Str()
		case "iterations":
			env.iterations, err = d.Int()
		case "nonce":
			env.nonce, err = d.Base64()
		case "data":
			env.data, err = d.Base64()
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "parse vault envelope")
	}
	if env.version != vaultVersion {
		return nil, errors.Errorf("unsupported vault version: %d", env.version)
	}
	if env.kdf != vaultKDF {
		return nil, errors.Errorf("unsupported vault kdf: %q", env.kdf)
	}
	return &env, nil
}

func encodePayload(vault map[string]string) []byte {
	names := make([]string, 0, len(vault))
	for name := range vault {
		names = append(names, name)
	}
	sort.Strings(names)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("secrets")
	e.ObjStart()
	for _, name := range names {
		e.FieldStart(name)
		e.Str(vault[name])
	}
	e.ObjEnd()
	e.ObjEnd()
	return e.Bytes()
}

func decodePayload(data []byte) (map[string]string, error) {
	vault := map[string]string{}
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "secrets" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, name string) error {
			value, err := d.Str()
			if err != nil {
				return err
			}
			vault[name] = value
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "parse vault payload")
	}
	return vault, nil
}

// readVault はボールトを復号して返す。ファイルが無ければ空のマップを返す
func (m *LocalManager) readVault(key []byte) (map[string]string, error) {
	data, err := os.ReadFile(m.VaultPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", m.VaultPath())
	}
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	plaintext, err := unseal(key, env.nonce, env.data)
	if err != nil {
		return nil, err
	}
	return decodePayload(plaintext)
}

func (m *LocalManager) writeVault(key []byte, vault map[string]string) error {
	nonce, sealed, err := seal(key, encodePayload(vault))
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.VaultPath(), encodeEnvelope(nonce, sealed), 0o600); err != nil {
		return errors.Wrapf(err, "write %s", m.VaultPath())
	}
	return nil
}

// Get はシークレットを取得する
func (m *LocalManager) Get(ctx context.Context, name string) (string, error) {
	key, err := m.loadKey()
	if err != nil {
		return "", err
	}
	vault, err := m.readVault(key)
	if err != nil {
		return "", err
	}
	value, ok := vault[name]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "local secret %q", name)
	}
	return value, nil
}

// Set はシークレットを保存する
func (m *LocalManager) Set(ctx context.Context, name, value string) error {
	key, err := m.loadKey()
	if err != nil {
		return err
	}
	vault, err := m.readVault(key)
	if err != nil {
		return err
	}
	vault[name] = value
	return m.writeVault(key, vault)
}

// Delete はシークレットを削除する
func (m *LocalManager) Delete(ctx context.Context, name string) error {
	key, err := m.loadKey()
	if err != nil {
		return err
	}
	vault, err := m.readVault(key)
	if err != nil {
		return err
	}
	if _, ok := vault[name]; !ok {
		return errors.Wrapf(ErrNotFound, "local secret %q", name)
	}
	delete(vault, name)
	return m.writeVault(key, vault)
}

// List はシークレット名をソートして返す
func (m *LocalManager) List(ctx context.Context) ([]string, error) {
	key, err := m.loadKey()
	if err != nil {
		return nil, err
	}
	vault, err := m.readVault(key)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(vault))
	for name := range vault {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Exists はシークレットが存在するかどうかを返す
func (m *LocalManager) Exists(ctx context.Context, name string) (bool, error) {
	key, err := m.loadKey()
	if err != nil {
		return false, err
	}
	vault, err := m.readVault(key)
	if err != nil {
		return false, err
	}
	_, ok := vault[name]
	return ok, nil
}
