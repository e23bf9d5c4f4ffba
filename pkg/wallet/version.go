package wallet

const Version = "0.1.0"
