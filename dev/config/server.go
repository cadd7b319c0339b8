package config

// SERVER_YML is the config used by `rxlink server --dev`
const SERVER_YML = `
rxlink:
  listener:
    port: 3000
  prescriptionLinkBaseURL: "http://localhost:3000/prescriptions/public"
  otp:
    value: "123456"
    hashed: false
  jwt:
    algorithm: HS256
    secret: "rxlink-dev-secret"
    expiration: 24h

database:
  driver: sqlite

sqlite:
  passPhrase: passphrase

postgres:
  dsn:

google:
  storage:
    bucket: "rxlink"
    prefix: "rxlink-dev"
  applicationCredentials:

twilio:
  accountSid:
  authToken:
  phoneNumber:
  whatsappNumber:
`
