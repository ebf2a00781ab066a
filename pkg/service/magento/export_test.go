package magento

var TokenExpiry = tokenExpiry

var DecodeHierarchy = decodeHierarchy
