package cli

var EnvFileFromArgs = envFileFromArgs

var FlagGiven = flagGiven
