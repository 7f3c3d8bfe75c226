package domain

type Encryptor interface {
	Encrypt(string) (string, error)
}

type Decryptor interface {
	Decrypt(string) (string, error)
}

//go:generate mockery --name=Crypto --exported --with-expecter
type Crypto interface {
	Encryptor
	Decryptor
}
