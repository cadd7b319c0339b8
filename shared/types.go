package shared

type ServerConfig struct {
	Rxlink   RxlinkConfig   `mapstructure:"rxlink" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type RxlinkConfig struct {
	Listener                ListenerConfig `mapstructure:"listener" validate:"required"`
	PrescriptionLinkBaseURL string         `mapstructure:"prescriptionLinkBaseURL" validate:"required,url"`
	OTP                     OTPConfig      `mapstructure:"otp" validate:"required"`
	JWT                     JWTConfig      `mapstructure:"jwt" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type OTPConfig struct {
	Value  string `mapstructure:"value" validate:"required"`
	Hashed bool   `mapstructure:"hashed"`
}

type JWTConfig struct {
	Algorithm     string `mapstructure:"algorithm" validate:"omitempty,oneof=HS256 HS384 HS512 RS256"`
	Secret        string `mapstructure:"secret" validate:"required_without=PrivateKeyPem"`
	PrivateKeyPem string `mapstructure:"privateKeyPem"`
	Expiration    string `mapstructure:"expiration"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
	Dir        string `mapstructure:"dir"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TwilioConfig struct {
	AccountSid     string `mapstructure:"accountSid"`
	AuthToken      string `mapstructure:"authToken"`
	PhoneNumber    string `mapstructure:"phoneNumber"`
	WhatsappNumber string `mapstructure:"whatsappNumber"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}
